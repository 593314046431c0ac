package lox

import "time"

// defineGlobals installs every native function into the global environment.
// clock() returns sub-second wall seconds elapsed since this process
// started, which is monotone within a run and satisfies "seconds since an
// unspecified epoch".
func defineGlobals(env *Environment, processStart time.Time) {
	env.Define("clock", &NativeFunction{
		Name: "clock",
		Arit: 0,
		Fn: func(_ *Interpreter, _ []Value) (Value, error) {
			return Number(time.Since(processStart).Seconds()), nil
		},
	})
}
