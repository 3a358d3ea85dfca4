// Package source selects go-json as the default JSON driver when imported.
package source

import (
	wiremodel "github.com/reoring/wiremodel"
	drvgojson "github.com/reoring/wiremodel/source/gojson"
)

// init lives in a separate package to avoid an import cycle with the root.
func init() { wiremodel.SetJSONDriver(drvgojson.Driver()) }
