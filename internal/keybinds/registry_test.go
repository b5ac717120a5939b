package keybinds

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMatch_SpecificThenGlobal(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name     string
		contexts []Context
		key      string
		want     Action
		found    bool
	}{
		{"global quit", []Context{ContextMessages}, "q", ActionQuit, true},
		{"messages enter", []Context{ContextMessages}, "enter", ActionExecute, true},
		{"selection enter", []Context{ContextSelection}, "enter", ActionSelect, true},
		{"meta tab shadows next tab", []Context{ContextHeadersMeta, ContextHeaders}, "tab", ActionSwitchField, true},
		{"addr tab falls to global", []Context{ContextHeaders}, "tab", ActionNextTab, true},
		{"headers j", []Context{ContextHeadersMeta, ContextHeaders}, "j", ActionNavigateDown, true},
		{"history slot", []Context{ContextMessages}, "3", ActionHistorySlot3, true},
		{"unbound", []Context{ContextSelection}, "z", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.MatchIn(tt.key, tt.contexts...)
			if ok != tt.found || got != tt.want {
				t.Errorf("MatchIn(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestMatchOnly_NoGlobalFallback(t *testing.T) {
	r := NewDefaultRegistry()
	if _, ok := r.MatchOnly("q", ContextMessages); ok {
		t.Error("MatchOnly should not fall back to global")
	}
	if action, ok := r.MatchOnly("ctrl+f", ContextMessages); !ok || action != ActionFormatJSON {
		t.Errorf("MatchOnly(ctrl+f) = %q, %v", action, ok)
	}
}

func TestGetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBindingString(ContextHeaders, ActionNavigateDown); got != "j/down" {
		t.Errorf("GetBindingString() = %q, want %q", got, "j/down")
	}
	if got := r.GetBindingString(ContextMessages, ActionQuit); got != "q" {
		t.Errorf("GetBindingString() = %q, want global fallback %q", got, "q")
	}
	if got := r.GetBindingString(ContextFilter, ActionHeaderAdd); got != "unbound" {
		t.Errorf("GetBindingString() = %q, want unbound", got)
	}
}

func TestHistorySlot(t *testing.T) {
	for i, action := range []Action{ActionHistorySlot1, ActionHistorySlot2, ActionHistorySlot3, ActionHistorySlot4, ActionHistorySlot5} {
		slot, ok := HistorySlot(action)
		if !ok || slot != i+1 {
			t.Errorf("HistorySlot(%q) = %d, %v", action, slot, ok)
		}
	}
	if _, ok := HistorySlot(ActionExecute); ok {
		t.Error("execute is not a history slot")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewDefaultRegistry()
	clone := r.Clone()
	clone.Register(ContextMessages, "x", ActionExecute)

	if r.HasBinding(ContextMessages, "x") {
		t.Error("modifying clone changed the original")
	}
	if !clone.HasBinding(ContextMessages, "x") {
		t.Error("clone is missing the new binding")
	}
}

func TestApplyConfig_ReplacesDefaults(t *testing.T) {
	r := NewDefaultRegistry()
	err := ApplyConfig(r, &Config{Messages: map[string]string{"history_save": "ctrl+w, ctrl+e"}})
	if err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}

	if _, ok := r.MatchOnly("ctrl+s", ContextMessages); ok {
		t.Error("default ctrl+s should be replaced")
	}
	got := r.GetBinding(ContextMessages, ActionHistorySave)
	if !reflect.DeepEqual(got, []string{"ctrl+e", "ctrl+w"}) {
		t.Errorf("GetBinding() = %v", got)
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	r, err := LoadOrDefault(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if !r.HasBinding(ContextGlobal, "q") {
		t.Error("expected default bindings")
	}

	path := filepath.Join(dir, "keybinds.json")
	if err := os.WriteFile(path, []byte(`{"global": {"toggle_help": "?"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	r, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if action, _ := r.Match(ContextGlobal, "?"); action != ActionToggleHelp {
		t.Errorf("expected ? to toggle help, got %q", action)
	}
	if r.HasBinding(ContextGlobal, "H") {
		t.Error("H should no longer toggle help")
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := SaveConfig(ExportDefaults(), path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Headers["navigate_down"] != "down,j" {
		t.Errorf("navigate_down = %q", config.Headers["navigate_down"])
	}

	r := NewRegistry()
	if err := ApplyConfig(r, config); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	for _, context := range NewDefaultRegistry().Contexts() {
		if !reflect.DeepEqual(r.ListBindings(context), NewDefaultRegistry().ListBindings(context)) {
			t.Errorf("context %s differs after round trip", context)
		}
	}
}

func TestRegistryValidate(t *testing.T) {
	if err := NewDefaultRegistry().Validate(); err != nil {
		t.Errorf("default registry: %v", err)
	}

	r := NewDefaultRegistry()
	r.Register(ContextInsert, "esc", ActionToggleHelp)
	if err := r.Validate(); err == nil {
		t.Error("expected an error when no key leaves insert mode")
	}

	r = NewDefaultRegistry()
	r.Register(ContextMessages, "", ActionExecute)
	if err := r.Validate(); err == nil {
		t.Error("expected an error for an empty key")
	}
}

func TestInsertSectionOverridesNormalMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := os.WriteFile(path, []byte(`{"insert": {"normal_mode": "ctrl+q"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if got := r.GetBindingString(ContextInsert, ActionNormalMode); got != "ctrl+q" {
		t.Errorf("normal_mode = %q, want ctrl+q", got)
	}
	if r.HasBinding(ContextInsert, "esc") {
		t.Error("esc should no longer leave insert mode")
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name       string
		content    string
		wantErrors bool
	}{
		{"valid override", `{"messages": {"history_save": "ctrl+w"}}`, false},
		{"insert rebound", `{"insert": {"normal_mode": "ctrl+q"}}`, false},
		{"esc taken from normal_mode", `{"insert": {"toggle_help": "esc"}}`, true},
		{"empty keys", `{"messages": {"history_save": ","}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CheckFile(write(tt.name+".json", tt.content))
			if err != nil {
				t.Fatalf("CheckFile: %v", err)
			}
			if result.HasErrors() != tt.wantErrors {
				t.Errorf("HasErrors() = %v, want %v: %s", result.HasErrors(), tt.wantErrors, result.String())
			}
		})
	}

	if _, err := CheckFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}

	// the TUI refuses a file that makes insert mode inescapable
	if _, err := LoadOrDefault(filepath.Join(dir, "esc taken from normal_mode.json")); err == nil {
		t.Error("expected LoadOrDefault to reject the file")
	}
}
