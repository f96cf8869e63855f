// This file matches an exclude pattern in test-config.yaml; nothing in it
// is reported.
package example

import "fence_analysistest/core"

func skipped() {
	core.Legacy()
	_ = core.FeatureFlag
}
