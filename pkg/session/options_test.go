package session

import (
	"testing"
)

func video(m map[string]interface{}) map[string]interface{} {
	v, _ := m["video"].(map[string]interface{})
	return v
}

func TestMergeCustomization_NilOverridesKeepDefaults(t *testing.T) {
	merged := MergeCustomization(DefaultCustomization(), nil)

	v := video(merged)
	if v == nil {
		t.Fatal("merged customization lost the video block")
	}
	if _, ok := v["viewSizes"]; !ok {
		t.Error("default viewSizes should survive when the caller supplies no video block")
	}
}

func TestMergeCustomization_TopLevelReplacedWholesale(t *testing.T) {
	defaults := map[string]interface{}{
		"sharing": map[string]interface{}{"enabled": true, "quality": "high"},
	}
	overrides := map[string]interface{}{
		"sharing": map[string]interface{}{"enabled": false},
	}

	merged := MergeCustomization(defaults, overrides)
	sharing := merged["sharing"].(map[string]interface{})
	if len(sharing) != 1 || sharing["enabled"] != false {
		t.Errorf("top-level key should be replaced wholesale, got %v", sharing)
	}
}

func TestMergeCustomization_VideoMergedKeyByKey(t *testing.T) {
	merged := MergeCustomization(DefaultCustomization(), map[string]interface{}{
		"video": map[string]interface{}{"isResizable": true},
	})

	v := video(merged)
	if v["isResizable"] != true {
		t.Errorf("caller's video.isResizable lost: %v", v["isResizable"])
	}
	if _, ok := v["popper"]; !ok {
		t.Error("default video.popper should survive a key-by-key merge")
	}
}

func TestMergeCustomization_ViewSizesReplacedWithVideoBlock(t *testing.T) {
	callerSizes := map[string]interface{}{
		"default": map[string]interface{}{"width": 1280, "height": 720},
	}

	tests := []struct {
		name      string
		overrides map[string]interface{}
		wantSizes interface{}
	}{
		{
			name: "caller supplies own viewSizes",
			overrides: map[string]interface{}{
				"video": map[string]interface{}{"viewSizes": callerSizes},
			},
			wantSizes: callerSizes,
		},
		{
			name: "caller supplies video block without viewSizes",
			overrides: map[string]interface{}{
				"video": map[string]interface{}{"isResizable": true},
			},
			wantSizes: nil,
		},
	}

	for _, test := range tests {
		merged := MergeCustomization(DefaultCustomization(), test.overrides)
		got, ok := video(merged)["viewSizes"]
		if test.wantSizes == nil {
			if ok {
				t.Errorf("%s: viewSizes = %v, want absent", test.name, got)
			}
			continue
		}
		if !ok {
			t.Errorf("%s: viewSizes missing", test.name)
			continue
		}
		gotMap := got.(map[string]interface{})
		wantMap := test.wantSizes.(map[string]interface{})
		if len(gotMap) != len(wantMap) {
			t.Errorf("%s: viewSizes = %v, want %v", test.name, gotMap, wantMap)
		}
	}
}

func TestMergeCustomization_ToolbarMergedKeyByKey(t *testing.T) {
	merged := MergeCustomization(DefaultCustomization(), map[string]interface{}{
		"toolbar": map[string]interface{}{"position": "bottom"},
	})

	toolbar := merged["toolbar"].(map[string]interface{})
	if toolbar["position"] != "bottom" {
		t.Errorf("caller's toolbar.position lost: %v", toolbar["position"])
	}
	if _, ok := toolbar["buttons"]; !ok {
		t.Error("default toolbar.buttons should survive a key-by-key merge")
	}
}
