package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	automata := &Automata{}
	cat := Determinize(automata.MakeString("cat"))

	type args struct {
		a *Automaton
		s string
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{name: "exact match", args: args{a: cat, s: "cat"}, want: true},
		{name: "empty input", args: args{a: cat, s: ""}, want: false},
		{name: "prefix only", args: args{a: cat, s: "ca"}, want: false},
		{name: "unknown symbol", args: args{a: cat, s: "dog"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, Run(tt.args.a, tt.args.s), "Run(%v, %v)", tt.args.a, tt.args.s)
		})
	}
}

func TestSimulate(t *testing.T) {
	automata := &Automata{}
	cat := Determinize(automata.MakeString("cat"))

	assert.True(t, Simulate(cat, []rune("cat")))
	assert.False(t, Simulate(cat, []rune("ca")))
	assert.False(t, Simulate(cat, []rune{}))
}
