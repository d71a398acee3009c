//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/engrave/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	engraveEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	engraveEngine.Set("loadDocument", js.FuncOf(loadDocument))
	engraveEngine.Set("updateDocument", js.FuncOf(updateDocument))
	engraveEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))

	// --- Queries (frontend ← backend) ---
	engraveEngine.Set("render", js.FuncOf(render))
	engraveEngine.Set("tuplets", js.FuncOf(tuplets))
	engraveEngine.Set("tupletGeometry", js.FuncOf(tupletGeometry))
	engraveEngine.Set("getDocument", js.FuncOf(getDocument))

	// Register on global scope
	js.Global().Set("engraveEngine", engraveEngine)

	// Signal that WASM is ready
	js.Global().Set("engraveWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	if err := eng.LoadDocument(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func updateDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	if err := eng.UpdateDocument(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	scoreID := "score_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		scoreID = args[0].String()
	}

	eng.LoadSampleDocument(scoreID)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func tuplets(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.Tuplets())
	return js.ValueOf(string(data))
}

func tupletGeometry(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing tuplet id"})
	}

	coords, err := eng.TupletGeometry(args[0].String())
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	data, _ := json.Marshal(coords)
	return js.ValueOf(string(data))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDocument())
}
