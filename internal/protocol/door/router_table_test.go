package door

import "testing"

func TestTable_RegisterAndRoute(t *testing.T) {
	tbl := NewTable()
	called := false
	tbl.Register(CmdOpenDoor, func(c Command) error { called = true; return nil })
	_ = tbl.Route(Command{Cmd: CmdOpenDoor})
	if !called {
		t.Fatalf("handler not called")
	}
	if err := tbl.Route(Command{Cmd: 0xEE}); err != nil {
		t.Fatalf("unregistered cmd should be ignored: %v", err)
	}
}
