package example

import "fence_analysistest/core"

func calls() {
	core.Legacy() // want "Legacy is deprecated, use Modern"
	core.Modern()

	core.Write("best.log") // want "Write without an explicit mode is unsafe"

	core.Mode("debug", 42) // want "debug mode 42 is for local builds only"
	core.Mode("debug", 41)
	core.Mode("release", 42)

	core.Handle(nil) // want "Handle requires a non-nil sink"
	var sink int
	core.Handle(sink)

	core.Option(core.Verbose) // want "Verbose logging leaks request bodies"
	core.Option(2)
}

func traced(tag string) {
	core.Trace("startup") // want "Trace is disallowed in production builds"
	core.Trace(tag)       // want "Trace is disallowed in production builds"
}

func methods() {
	c := &core.Client{}
	c.Delete("all") // want "Client.Delete bypasses the audit log"
	_ = c.Get("all")

	var r core.Registry
	_ = r.Get("key")  // want "Registry is frozen, use the service instead"
	r.Put("key", "v") // want "Registry is frozen, use the service instead"

	var b core.Box[int]
	b.Put(1) // want "Box.Put is superseded by Store"
}

func generics() {
	_ = core.Load(42)          // want "Load is superseded by LoadContext"
	_ = core.Load[string]("x") // want "Load is superseded by LoadContext"
}

func refs() {
	_ = core.FeatureFlag // want "FeatureFlag is finalized and cannot be toggled"
	var cfg core.Config
	_ = cfg.Insecure    // want "Insecure disables TLS verification"
	cfg.Insecure = true // want "Insecure disables TLS verification"
	cfg.Timeout = 5
}
