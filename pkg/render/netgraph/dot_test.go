package netgraph

import (
	"strings"
	"testing"

	"github.com/matzehuels/shelfconv/pkg/macro"
)

func fixture() *macro.Result {
	return &macro.Result{
		Components: []macro.Component{
			{Instance: "a", Macro: "Mac_0"},
			{Instance: "b", Macro: "Mac_0"},
			{Instance: "c", Macro: "Mac_1"},
			{Instance: "p", Macro: "Mac_2", Status: macro.Fixed, X: 10, Y: 20},
		},
		Nets: []macro.Connection{
			{Net: "n1", Terms: []macro.Term{{Instance: "a", Pin: "O0"}, {Instance: "b", Pin: "I0"}}},
			{Net: "n2", Terms: []macro.Term{{Instance: "b", Pin: "O0"}, {Instance: "a", Pin: "I0"}, {Instance: "p", Pin: "I0"}}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(fixture(), Options{})

	for _, want := range []string{
		"digraph G {",
		`"a" [label="a\nMac_0"];`,
		`"p" [label="p\nMac_2", fillcolor=lightgrey, style="filled"];`,
		`"c" [label="c\nMac_1"];`,
		`"a" -> "b" [tooltip="n1"];`,
		`"net:n2" [shape=point, width=0.08, xlabel="n2"];`,
		`"b" -> "net:n2";`,
		`"net:n2" -> "a";`,
		`"net:n2" -> "p";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT should end with closing brace")
	}
}

func TestToDOTMaxNets(t *testing.T) {
	dot := ToDOT(fixture(), Options{MaxNets: 1})

	if strings.Contains(dot, "n2") {
		t.Error("net n2 should be omitted")
	}
	for _, inst := range []string{`"c" [`, `"p" [`} {
		if strings.Contains(dot, inst) {
			t.Errorf("component %s not on a drawn net should be omitted", inst)
		}
	}
	if !strings.Contains(dot, `"a" [`) || !strings.Contains(dot, `"b" [`) {
		t.Error("components of drawn nets should be present")
	}
}

func TestToDOTPinLabels(t *testing.T) {
	dot := ToDOT(fixture(), Options{PinLabels: true})

	for _, want := range []string{
		`"a" -> "b" [tooltip="n1", taillabel="O0", headlabel="I0"];`,
		`"b" -> "net:n2" [taillabel="O0"];`,
		`"net:n2" -> "p" [headlabel="I0"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s", want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.50 20.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.50 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
