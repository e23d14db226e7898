package scripting

import (
	"errors"
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// scriptDirs are loaded in this order, so rule files can use core helpers.
var scriptDirs = []string{"core", "combat"}

var errNoFunction = errors.New("lua function not defined")

// Engine runs the combat rules on one gopher-lua VM. The VM only gets the
// base, table, string and math libraries: rule scripts have no io or os.
// Single-goroutine access only (turn loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine starts a VM and runs every .lua file under scriptsDir/core and
// scriptsDir/combat. Missing directories are skipped; a script that fails to
// load is an error.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		vm.Push(vm.NewFunction(lib.open))
		vm.Push(lua.LString(lib.name))
		vm.Call(1, 0)
	}
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, sub := range scriptDirs {
		files, err := filepath.Glob(filepath.Join(scriptsDir, sub, "*.lua"))
		if err != nil {
			vm.Close()
			return nil, err
		}
		for _, f := range files {
			if err := vm.DoFile(f); err != nil {
				vm.Close()
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
			log.Debug("lua script loaded", zap.String("file", f))
		}
	}
	return e, nil
}

// MeleeContext carries the pre-rolled dice and both fighters' numbers.
type MeleeContext struct {
	Attacker    string
	Target      string
	Rolls       []bool // coin flips, true = success
	MeleeBonus  int    // sum of the attacker's equipped melee bonuses
	TargetHP    int
	TargetMaxHP int
}

type MeleeResult struct {
	IsHit     bool
	Damage    int
	Successes int
}

// MeleeRolls returns how many coin flips an attack at the given skill rolls:
// melee_roll_count(skill) when the script defines it, else 10-skill.
func (e *Engine) MeleeRolls(skill int) int {
	ret, err := e.call("melee_roll_count", lua.LNumber(skill))
	if n := int(lua.LVAsNumber(ret)); err == nil && n > 0 {
		return n
	}
	if err != nil && !errors.Is(err, errNoFunction) {
		e.log.Error("melee_roll_count failed", zap.Error(err))
	}
	return 10 - skill
}

// ResolveMelee asks resolve_melee to interpret the rolls. A missing or
// failing script, or one returning anything but a table, is a miss.
func (e *Engine) ResolveMelee(mc MeleeContext) MeleeResult {
	rolls := e.vm.CreateTable(len(mc.Rolls), 0)
	for _, r := range mc.Rolls {
		rolls.Append(lua.LBool(r))
	}
	arg := e.vm.CreateTable(0, 6)
	arg.RawSetString("attacker", lua.LString(mc.Attacker))
	arg.RawSetString("target", lua.LString(mc.Target))
	arg.RawSetString("melee_bonus", lua.LNumber(mc.MeleeBonus))
	arg.RawSetString("target_hp", lua.LNumber(mc.TargetHP))
	arg.RawSetString("target_max_hp", lua.LNumber(mc.TargetMaxHP))
	arg.RawSetString("rolls", rolls)

	ret, err := e.call("resolve_melee", arg)
	if err != nil {
		e.log.Error("resolve_melee failed", zap.Error(err))
		return MeleeResult{}
	}
	out, ok := ret.(*lua.LTable)
	if !ok {
		e.log.Error("resolve_melee returned " + ret.Type().String())
		return MeleeResult{}
	}
	return MeleeResult{
		IsHit:     lua.LVAsBool(out.RawGetString("is_hit")),
		Damage:    int(lua.LVAsNumber(out.RawGetString("damage"))),
		Successes: int(lua.LVAsNumber(out.RawGetString("successes"))),
	}
}

// call runs the global function name with one return value.
func (e *Engine) call(name string, args ...lua.LValue) (lua.LValue, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("%w: %s", errNoFunction, name)
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, nil
}

func (e *Engine) Close() { e.vm.Close() }
