package tui

import (
	"strings"
	"testing"

	"github.com/studiowebux/rpccli/internal/model"
)

// openMethod selects helloworld.Greeter/SayGoodbye and moves to the messages tab
func openMethod(t *testing.T, c *Controller) {
	t.Helper()
	press(c, "enter", "enter")
	if c.Context().Tab != TabMessages {
		t.Fatalf("Expected messages tab, got %s", c.Context().Tab)
	}
}

func TestController_QuitKey(t *testing.T) {
	c, _ := CreateTestController(t)

	if !c.OnEvent(key("q")) {
		t.Error("Expected q to quit in normal mode")
	}
}

func TestController_QuitIgnoredInInsertMode(t *testing.T) {
	c, panels := CreateTestController(t)
	openMethod(t, c)

	press(c, "i")
	if !c.InsertMode() {
		t.Fatal("Expected insert mode after i")
	}

	if c.OnEvent(key("q")) {
		t.Fatal("q must not quit while an editor is in insert mode")
	}
	if !c.Context().DisableRootEvents {
		t.Error("Expected root events disabled in insert mode")
	}
	if !strings.Contains(panels.Messages.Request.GetTextRaw(), "q") {
		t.Errorf("Expected q to be typed, got %q", panels.Messages.Request.GetTextRaw())
	}

	press(c, "tab", "H", "A")
	if c.Context().Tab != TabMessages {
		t.Errorf("Global bindings leaked in insert mode, tab is %s", c.Context().Tab)
	}

	press(c, "esc")
	if c.InsertMode() || c.Context().DisableRootEvents {
		t.Fatal("Expected normal mode after esc")
	}
	if !c.OnEvent(key("q")) {
		t.Error("Expected q to quit after leaving insert mode")
	}
}

func TestController_ForceQuitInInsertMode(t *testing.T) {
	c, _ := CreateTestController(t)
	openMethod(t, c)

	press(c, "i")
	if !c.OnEvent(key("ctrl+c")) {
		t.Error("Expected ctrl+c to quit in insert mode")
	}
}

func TestController_TabSwitching(t *testing.T) {
	c, _ := CreateTestController(t)
	ctx := c.Context()

	press(c, "down")
	if ctx.Sub != 1 {
		t.Fatalf("Expected sub 1, got %d", ctx.Sub)
	}

	press(c, "tab")
	if ctx.Tab != TabMessages || ctx.Sub != 0 {
		t.Errorf("Expected Messages/0, got %s/%d", ctx.Tab, ctx.Sub)
	}
	press(c, "tab", "tab")
	if ctx.Tab != TabSelection {
		t.Errorf("Expected Selection after three tabs, got %s", ctx.Tab)
	}
	press(c, "shift+tab")
	if ctx.Tab != TabHeaders {
		t.Errorf("Expected Headers after shift+tab, got %s", ctx.Tab)
	}
}

func TestController_HelpToggle(t *testing.T) {
	c, _ := CreateTestController(t)

	before := c.Context().ShowHelp
	press(c, "H")
	if c.Context().ShowHelp == before {
		t.Error("Expected H to toggle help")
	}
}

func TestController_SelectionFlow(t *testing.T) {
	c, panels := CreateTestController(t)
	ctx := c.Context()

	press(c, "enter")
	if ctx.Sub != 1 {
		t.Fatalf("Expected method list after enter, got sub %d", ctx.Sub)
	}
	method := panels.Messages.SelectedMethod()
	if method == nil || method.FullName() != "helloworld.Greeter/SayGoodbye" {
		t.Fatalf("Expected first method loaded, got %v", method)
	}
	if got := panels.Messages.Request.GetTextRaw(); got != `{"name":"bye"}` {
		t.Errorf("Expected template in request editor, got %q", got)
	}

	press(c, "j")
	if got := panels.Messages.SelectedMethod().Name; got != "SayHello" {
		t.Errorf("Expected SayHello after j, got %s", got)
	}

	press(c, "esc")
	if ctx.Sub != 0 {
		t.Errorf("Expected sub 0 after esc, got %d", ctx.Sub)
	}
	if panels.Selection.SelectedMethod() != nil || panels.Messages.SelectedMethod() != nil {
		t.Error("Expected esc to clear the method from selection and messages")
	}

	press(c, "j")
	if got := panels.Selection.SelectedService().Name; got != "shop.Orders" {
		t.Errorf("Expected shop.Orders after j, got %s", got)
	}
	if panels.Messages.SelectedMethod() != nil {
		t.Error("Expected moving service to clear the loaded method")
	}
}

func TestController_SelectionFilter(t *testing.T) {
	c, panels := CreateTestController(t)

	press(c, "/")
	if !c.InsertMode() {
		t.Fatal("Expected the filter to count as insert mode")
	}
	typeText(c, "shop")
	if c.OnEvent(key("q")) {
		t.Fatal("q must not quit while filtering")
	}
	press(c, "enter")
	if c.InsertMode() {
		t.Fatal("Expected enter to close the filter")
	}

	services := panels.Selection.Services()
	if len(services) != 0 {
		t.Errorf("Expected no service to match 'shopq', got %d", len(services))
	}

	press(c, "/", "esc")
	if len(panels.Selection.Services()) != 2 {
		t.Errorf("Expected esc to clear the filter, got %d services", len(panels.Selection.Services()))
	}
}

func TestController_ProcessingBeforeCall(t *testing.T) {
	c, panels := CreateTestController(t)
	openMethod(t, c)

	press(c, "enter")
	if !panels.Messages.IsProcessing() {
		t.Fatal("Expected a call in flight")
	}
	if got := panels.Messages.Response.GetTextRaw(); got != model.ProcessingText {
		t.Errorf("Expected %q, got %q", model.ProcessingText, got)
	}

	call, ok := c.TakePendingCall()
	if !ok {
		t.Fatal("Expected a pending call")
	}
	if call.Request.Procedure() != "helloworld.Greeter/SayGoodbye" {
		t.Errorf("Unexpected procedure %s", call.Request.Procedure())
	}
	if _, ok := c.TakePendingCall(); ok {
		t.Error("Expected the pending call to be taken once")
	}
}

func TestController_EnterWithoutMethod(t *testing.T) {
	c, panels := CreateTestController(t)

	press(c, "tab", "enter")
	if _, ok := c.TakePendingCall(); ok {
		t.Error("Expected no call without a method")
	}
	if panels.Messages.Response.Error() == nil {
		t.Error("Expected an error on the response editor")
	}
}

func TestController_MetaBoundaryClamp(t *testing.T) {
	c, panels := CreateTestController(t)
	headers := panels.Headers

	press(c, "tab", "tab")
	press(c, "ctrl+h", "ctrl+h", "ctrl+h")
	if len(headers.MetaRows()) != 3 || headers.Selected() != model.SelectMeta {
		t.Fatalf("Expected 3 rows with Meta selected, got %d/%s", len(headers.MetaRows()), headers.Selected())
	}

	press(c, "k", "k")
	if headers.Selected() != model.SelectMeta || headers.Cursor().Row != 0 {
		t.Fatalf("Expected row 0, got %d", headers.Cursor().Row)
	}

	for i := 0; i < 10; i++ {
		press(c, "down")
		if headers.Selected() != model.SelectMeta {
			t.Fatalf("Left Meta on down press %d", i)
		}
	}
	if headers.Cursor().Row != 2 {
		t.Errorf("Expected cursor clamped at row 2, got %d", headers.Cursor().Row)
	}

	press(c, "up", "up", "up")
	if headers.Selected() != model.SelectAuth {
		t.Errorf("Expected up past row 0 to reach Auth, got %s", headers.Selected())
	}
}

func TestController_EmptyMetaResolvesToNone(t *testing.T) {
	c, panels := CreateTestController(t)

	press(c, "M")
	if c.Context().Tab != TabHeaders {
		t.Fatalf("Expected M to open headers, got %s", c.Context().Tab)
	}
	if got := panels.Headers.Selected(); got != model.SelectNone {
		t.Errorf("Expected None with no metadata, got %s", got)
	}

	press(c, "ctrl+h", "ctrl+d")
	if got := panels.Headers.Selected(); got != model.SelectNone {
		t.Errorf("Expected None after deleting the last row, got %s", got)
	}
}

func TestController_AddressToggle(t *testing.T) {
	c, panels := CreateTestController(t)

	press(c, "A")
	if c.Context().Tab != TabHeaders || panels.Headers.Selected() != model.SelectAddr {
		t.Fatalf("Expected Headers/Address, got %s/%s", c.Context().Tab, panels.Headers.Selected())
	}

	press(c, "i")
	typeText(c, "/v1")
	press(c, "enter")
	if c.InsertMode() {
		t.Fatal("Expected enter to leave insert mode in the address field")
	}
	if got := panels.Headers.Address(); got != "http://localhost:8080/v1" {
		t.Errorf("Unexpected address %q", got)
	}

	press(c, "A")
	if c.Context().Tab != TabMessages || panels.Headers.Selected() != model.SelectNone {
		t.Errorf("Expected A to toggle back to Messages, got %s/%s", c.Context().Tab, panels.Headers.Selected())
	}
}

func TestController_AuthSwitchUsesTab(t *testing.T) {
	c, panels := CreateTestController(t)

	press(c, "tab", "tab", "j", "j")
	if panels.Headers.Selected() != model.SelectAuth {
		t.Fatalf("Expected Auth, got %s", panels.Headers.Selected())
	}

	press(c, "tab")
	if c.Context().Tab != TabHeaders {
		t.Errorf("Expected tab to switch the auth field, not the page")
	}
	if panels.Headers.AuthKind() != model.AuthBasic {
		t.Errorf("Expected basic auth, got %s", panels.Headers.AuthKind())
	}

	press(c, "esc", "tab")
	if c.Context().Tab != TabSelection {
		t.Errorf("Expected tab to change page from None, got %s", c.Context().Tab)
	}
}

func TestController_HistoryReloadIdempotent(t *testing.T) {
	c, panels := CreateTestController(t)
	openMethod(t, c)
	messages := panels.Messages

	press(c, "2")
	press(c, "i")
	typeText(c, "x")
	press(c, "esc", "ctrl+s")
	saved := messages.Request.GetTextRaw()

	press(c, "1")
	if got := messages.Request.GetTextRaw(); got == saved {
		t.Fatalf("Expected slot 1 to differ from slot 2, both %q", got)
	}

	press(c, "2")
	first := messages.Request.GetTextRaw()
	firstAddr := panels.Headers.Address()
	press(c, "2")
	if got := messages.Request.GetTextRaw(); got != first {
		t.Errorf("Reload not idempotent: %q then %q", first, got)
	}
	if got := panels.Headers.Address(); got != firstAddr {
		t.Errorf("Reload changed address: %q then %q", firstAddr, got)
	}
	if first != saved {
		t.Errorf("Expected slot 2 content %q, got %q", saved, first)
	}
}
