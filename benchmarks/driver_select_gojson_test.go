//go:build gojson

package benchmarks_test

import (
	wiremodel "github.com/reoring/wiremodel"
	drv "github.com/reoring/wiremodel/source/gojson"
)

func init() {
	wiremodel.SetJSONDriver(drv.Driver())
}
