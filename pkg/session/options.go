package session

import "github.com/embedkit/zoom-embed/pkg/layout"

// DefaultLanguage is passed to SDK initialization.
const DefaultLanguage = "en-US"

// DefaultCustomization returns the stock display options. The default
// viewSizes block requests the full virtual resolution regardless of the
// real container size; the layout scaler fits it down afterwards. The SDK
// only offers its richer gallery layouts at the larger fixed sizes.
func DefaultCustomization() map[string]interface{} {
	return map[string]interface{}{
		"video": map[string]interface{}{
			"isResizable": false,
			"popper": map[string]interface{}{
				"disableDraggable": true,
			},
			"viewSizes": map[string]interface{}{
				"default": map[string]interface{}{
					"width":  layout.VirtualWidth,
					"height": layout.VirtualHeight,
				},
			},
		},
		"toolbar": map[string]interface{}{
			"buttons": []interface{}{},
		},
	}
}

// MergeCustomization overlays caller options onto defaults. Top-level keys
// replace wholesale, except "video" and "toolbar" which merge key-by-key.
// Within "video", the caller's viewSizes replaces the default wholesale
// whenever the caller supplies any video block at all, so a caller choosing
// its own video settings is never pinned to the default resolution.
func MergeCustomization(defaults, overrides map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}

	for k, v := range overrides {
		switch k {
		case "video", "toolbar":
			base, _ := merged[k].(map[string]interface{})
			over, ok := v.(map[string]interface{})
			if !ok {
				merged[k] = v
				continue
			}
			sub := make(map[string]interface{}, len(base)+len(over))
			for bk, bv := range base {
				sub[bk] = bv
			}
			if k == "video" {
				delete(sub, "viewSizes")
			}
			for ok2, ov := range over {
				sub[ok2] = ov
			}
			merged[k] = sub
		default:
			merged[k] = v
		}
	}

	return merged
}
