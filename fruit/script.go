package fruit

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ScriptPicker delegates the draw to a tengo script. The script sees the
// global `count` and must assign the global `index`:
//
//	rand := import("rand")
//	index = rand.intn(count)
//
// Failed runs and out-of-range answers fall back to the wrapped picker.
type ScriptPicker struct {
	name     string
	compiled *tengo.Compiled
	fallback Picker
}

func NewScriptPicker(name string, src []byte, fallback Picker) (*ScriptPicker, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("count", 0); err != nil {
		return nil, fmt.Errorf("fruit: script %s: %w", name, err)
	}
	if err := script.Add("index", 0); err != nil {
		return nil, fmt.Errorf("fruit: script %s: %w", name, err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("fruit: compile script %s: %w", name, err)
	}
	if fallback == nil {
		fallback = NewRandPicker(0)
	}
	return &ScriptPicker{name: name, compiled: compiled, fallback: fallback}, nil
}

// Eval runs the script once for n candidates.
func (p *ScriptPicker) Eval(n int) (int, error) {
	if err := p.compiled.Set("count", n); err != nil {
		return 0, err
	}
	if err := p.compiled.Run(); err != nil {
		return 0, err
	}
	idx := p.compiled.Get("index").Int()
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("index %d out of range [0, %d)", idx, n)
	}
	return idx, nil
}

func (p *ScriptPicker) Pick(n int) int {
	idx, err := p.Eval(n)
	if err != nil {
		log.Printf("fruit: script %s: %v, using fallback", p.name, err)
		return p.fallback.Pick(n)
	}
	return idx
}
