package example

import "fence_analysistest/core"

func suppressed() {
	core.Legacy() // fence:allow

	core.Legacy() /* fence:allow */

	// fence:allow
	core.Legacy()

	// fence:allow removal tracked in the migration queue
	_ = core.FeatureFlag
}
