//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/layers"
)

var (
	store    *document.MemoryStore
	eng      *engine.Engine
	recorder *engine.Recorder
	layerSet *layers.List
	bridge   = &textBridge{pending: map[int]pendingText{}}
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	store = document.NewMemoryStore()
	recorder = engine.NewRecorder(nil)
	layerSet = layers.NewList()
	eng = engine.New(store,
		engine.WithRenderer(recorder),
		engine.WithLayers(layerSet),
		engine.WithTextInput(bridge),
		engine.OnSelectionChanged(func(index int, id string) {
			notify("onSelectionChanged", index, id)
		}),
		engine.OnObjectCreated(func(obj document.Object, layerID string) {
			data, err := json.Marshal(obj)
			if err != nil {
				slog.Error("marshal created object", "error", err)
				return
			}
			notify("onObjectCreated", string(data), layerID)
		}),
	)

	api := js.Global().Get("Object").New()

	// --- Commands (host → engine) ---
	api.Set("pointerDown", js.FuncOf(pointer(eng.PointerDown)))
	api.Set("pointerMove", js.FuncOf(pointer(eng.PointerMove)))
	api.Set("pointerUp", js.FuncOf(pointer(eng.PointerUp)))
	api.Set("pointerLeave", js.FuncOf(pointerLeave))
	api.Set("keyDown", js.FuncOf(key(eng.KeyDown)))
	api.Set("keyUp", js.FuncOf(key(eng.KeyUp)))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("submitText", js.FuncOf(submitText))
	api.Set("cancelText", js.FuncOf(cancelText))
	api.Set("selectById", js.FuncOf(selectByID))
	api.Set("updateObject", js.FuncOf(updateObject))
	api.Set("removeObject", js.FuncOf(removeObject))
	api.Set("loadSample", js.FuncOf(loadSample))
	api.Set("cancelGesture", js.FuncOf(cancelGesture))

	// --- Queries (host ← engine) ---
	api.Set("getObjects", js.FuncOf(getObjects))
	api.Set("getLayers", js.FuncOf(getLayers))
	api.Set("getFrame", js.FuncOf(getFrame))
	api.Set("getMode", js.FuncOf(getMode))

	js.Global().Set("canvasEngine", api)
	js.Global().Set("canvasWasmReady", js.ValueOf(true))

	eng.Redraw()

	select {}
}

// notify calls canvasEngine.<name> when the host has assigned it.
func notify(name string, args ...any) {
	cb := js.Global().Get("canvasEngine").Get(name)
	if cb.Type() != js.TypeFunction {
		return
	}
	cb.Invoke(args...)
}

func errorResult(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func decode(args []js.Value, v any) error {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return errMissingArgument
	}
	return json.Unmarshal([]byte(args[0].String()), v)
}

// --- Input ---

func pointer(fn func(engine.PointerEvent)) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		var ev engine.PointerEvent
		if err := decode(args, &ev); err != nil {
			return errorResult(err)
		}
		fn(ev)
		return nil
	}
}

func key(fn func(engine.KeyEvent)) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		var ev engine.KeyEvent
		if err := decode(args, &ev); err != nil {
			return errorResult(err)
		}
		fn(ev)
		return nil
	}
}

func pointerLeave(js.Value, []js.Value) any {
	eng.PointerLeave()
	return nil
}

func wheel(_ js.Value, args []js.Value) any {
	var ev engine.WheelEvent
	if err := decode(args, &ev); err != nil {
		return errorResult(err)
	}
	eng.Wheel(ev)
	return nil
}

func setTool(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult(errMissingArgument)
	}
	if err := eng.SetTool(document.Tool(args[0].String())); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func selectByID(_ js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].IsNull() || args[0].String() == "" {
		eng.ClearSelection()
		return okResult()
	}
	if err := eng.SelectByID(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func updateObject(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorResult(errMissingArgument)
	}
	var p document.Patch
	if err := decode(args[1:], &p); err != nil {
		return errorResult(err)
	}
	if err := eng.UpdateObject(args[0].String(), p); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func removeObject(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult(errMissingArgument)
	}
	if err := eng.RemoveObject(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSample(js.Value, []js.Value) any {
	eng.AddObjects(document.NewSampleScene()...)
	return okResult()
}

func cancelGesture(js.Value, []js.Value) any {
	eng.CancelActiveGesture()
	return nil
}

// --- Queries ---

func getObjects(js.Value, []js.Value) any {
	return marshal(eng.Objects())
}

func getLayers(js.Value, []js.Value) any {
	return marshal(layerSet.Entries())
}

// getFrame returns the draw commands of the most recent redraw.
func getFrame(js.Value, []js.Value) any {
	out, err := engine.DrawCommandsToJSON(recorder.Commands())
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(out)
}

func getMode(js.Value, []js.Value) any {
	return js.ValueOf(eng.Mode().String())
}

func marshal(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

// --- Text entry ---

type pendingText struct {
	submit func(string)
	cancel func()
}

// textBridge hands text entry to the host page through
// canvasEngine.onActivateText(token, screenX, screenY, worldX, worldY).
type textBridge struct {
	seq     int
	pending map[int]pendingText
}

func (b *textBridge) ActivateTextTool(screen, world geom.Point, submit func(string), cancel func()) {
	b.seq++
	b.pending = map[int]pendingText{b.seq: {submit: submit, cancel: cancel}}
	notify("onActivateText", b.seq, screen.X, screen.Y, world.X, world.Y)
}

func (b *textBridge) take(token int) (pendingText, bool) {
	p, ok := b.pending[token]
	delete(b.pending, token)
	return p, ok
}

func submitText(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorResult(errMissingArgument)
	}
	p, ok := bridge.take(args[0].Int())
	if !ok {
		return errorResult(errStaleText)
	}
	p.submit(args[1].String())
	return okResult()
}

func cancelText(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult(errMissingArgument)
	}
	p, ok := bridge.take(args[0].Int())
	if !ok {
		return errorResult(errStaleText)
	}
	p.cancel()
	return okResult()
}
