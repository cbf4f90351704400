//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/inamate/draft/internal/command"
	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/engine"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/snap"
	"github.com/inamate/draft/internal/tools"
	"github.com/inamate/draft/internal/typeid"
)

var eng *engine.Engine

func main() {
	eng = engine.New(engine.Options{
		Tools:  tools.DefaultConfig(typeid.Elements()),
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})

	draftEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	draftEngine.Set("load", js.FuncOf(load))
	draftEngine.Set("handleEvent", js.FuncOf(handleEvent))
	draftEngine.Set("execute", js.FuncOf(execute))
	draftEngine.Set("undo", js.FuncOf(undo))
	draftEngine.Set("redo", js.FuncOf(redo))
	draftEngine.Set("deleteSelection", js.FuncOf(deleteSelection))
	draftEngine.Set("setTool", js.FuncOf(setTool))
	draftEngine.Set("setSelection", js.FuncOf(setSelection))
	draftEngine.Set("setSnap", js.FuncOf(setSnap))

	// --- Queries (frontend ← engine) ---
	draftEngine.Set("render", js.FuncOf(render))
	draftEngine.Set("hitTest", js.FuncOf(hitTest))
	draftEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	draftEngine.Set("getState", js.FuncOf(getState))
	draftEngine.Set("getElements", js.FuncOf(getElements))
	draftEngine.Set("getPreview", js.FuncOf(getPreview))
	draftEngine.Set("getRegistry", js.FuncOf(getRegistry))

	js.Global().Set("draftEngine", draftEngine)
	js.Global().Set("draftWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func toJS(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(string(data))
}

func errorValue(msg string) any {
	return js.ValueOf(map[string]any{"error": msg})
}

func okValue() any {
	return js.ValueOf(map[string]any{"ok": true})
}

// --- Command Handlers ---

func load(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing elements JSON")
	}
	els, err := document.UnmarshalSet([]byte(args[0].String()))
	if err != nil {
		return errorValue(err.Error())
	}
	if err := eng.Load(els); err != nil {
		return errorValue(err.Error())
	}
	return okValue()
}

func handleEvent(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing event JSON")
	}
	var ev tools.Event
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return errorValue(err.Error())
	}
	return toJS(eng.HandleEvent(ev))
}

func execute(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing commands JSON")
	}
	var cmds []command.Command
	if err := json.Unmarshal([]byte(args[0].String()), &cmds); err != nil {
		return errorValue(err.Error())
	}
	return toJS(eng.Execute(cmds))
}

func undo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Redo())
}

func deleteSelection(this js.Value, args []js.Value) any {
	if err := eng.DeleteSelection(); err != nil {
		return errorValue(err.Error())
	}
	return okValue()
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing tool name")
	}
	if err := eng.SetTool(args[0].String()); err != nil {
		return errorValue(err.Error())
	}
	return okValue()
}

func setSelection(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	ids := make([]string, arr.Length())
	for i := range ids {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func setSnap(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing snap options JSON")
	}
	opts := snap.DefaultOptions()
	if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
		return errorValue(err.Error())
	}
	eng.SetSnap(opts)
	return okValue()
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	out, err := engine.DrawCommandsToJSON(eng.Render())
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	id, _ := eng.HitTest(geom.Point{X: args[0].Float(), Y: args[1].Float()})
	return js.ValueOf(id)
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	r, ok := eng.SelectionBounds()
	if !ok {
		return js.Null()
	}
	return toJS(r)
}

func getState(this js.Value, args []js.Value) any {
	return toJS(eng.State())
}

func getElements(this js.Value, args []js.Value) any {
	data, err := document.MarshalSet(eng.Elements())
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(string(data))
}

func getPreview(this js.Value, args []js.Value) any {
	return toJS(eng.Preview())
}

func getRegistry(this js.Value, args []js.Value) any {
	return toJS(eng.Registry().Describe())
}
