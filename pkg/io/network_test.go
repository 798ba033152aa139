package io_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
	"github.com/matzehuels/pathquery/pkg/network"
)

const p53TOML = `
name = "p53"
description = "p53/MDM2 feedback loop"
ubiques = ["ATP"]

[[entity]]
id = "TP53:MDM2"
type = "Complex"
members = ["TP53", "MDM2"]

[[entity]]
id = "TP53"
name = "Cellular tumor antigen p53"
type = "protein"
attrs = { chromosome = "17p13.1", length = 393 }

[[entity]]
id = "MDM2"
type = "Protein"

[[entity]]
id = "ATP"
type = "SmallMolecule"

[[interaction]]
source = "TP53"
target = "MDM2"
type = "expression"

[[interaction]]
source = "MDM2"
target = "TP53"
type = "inhibition"

[[interaction]]
source = "ATP"
target = "MDM2"
type = "binding"
inhibitory = true
`

func readTOML(t *testing.T, src string) *network.Network {
	t.Helper()
	n, err := pqio.ReadNetwork(strings.NewReader(src), pqio.FormatTOML)
	if err != nil {
		t.Fatalf("ReadNetwork: %v", err)
	}
	return n
}

func TestReadNetworkTOML(t *testing.T) {
	n := readTOML(t, p53TOML)

	if n.Name != "p53" || n.Description != "p53/MDM2 feedback loop" {
		t.Errorf("header = %q, %q", n.Name, n.Description)
	}
	if n.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", n.Len())
	}
	tp53, _ := n.Entity("TP53")
	if tp53.Type != network.TypeProtein {
		t.Errorf("TP53 type = %q, want Protein (case-insensitive parse)", tp53.Type)
	}
	if v, ok := tp53.Attr("length"); !ok || v != int64(393) {
		t.Errorf("TP53 length = %v (%T)", v, v)
	}
	cplx, _ := n.Entity("TP53:MDM2")
	if got := cplx.Members(); !slices.Equal(got, []string{"TP53", "MDM2"}) {
		t.Errorf("members = %v (declared before the entities)", got)
	}
	if !n.IsUbique("ATP") {
		t.Error("ATP should be ubiquitous")
	}

	ins := n.Interactions()
	if len(ins) != 3 {
		t.Fatalf("interactions = %d, want 3", len(ins))
	}
	want := []bool{false, true, true}
	for i, in := range ins {
		if in.Inhibitory != want[i] {
			t.Errorf("%s->%s inhibitory = %v, want %v", in.Source, in.Target, in.Inhibitory, want[i])
		}
	}
}

func TestNetworkRoundTrip(t *testing.T) {
	orig := readTOML(t, p53TOML)
	for _, format := range []pqio.Format{pqio.FormatJSON, pqio.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := pqio.WriteNetwork(orig, &buf, format); err != nil {
				t.Fatalf("WriteNetwork: %v", err)
			}
			got, err := pqio.ReadNetwork(&buf, format)
			if err != nil {
				t.Fatalf("ReadNetwork: %v\n%s", err, buf.String())
			}
			if got.Name != orig.Name || got.Len() != orig.Len() {
				t.Errorf("got %q with %d entities", got.Name, got.Len())
			}
			if !slices.Equal(got.Interactions(), orig.Interactions()) {
				t.Errorf("interactions = %v, want %v", got.Interactions(), orig.Interactions())
			}
			if !slices.Equal(got.Ubiques(), orig.Ubiques()) {
				t.Errorf("ubiques = %v", got.Ubiques())
			}
			c, _ := got.Entity("TP53:MDM2")
			if len(c.Members()) != 2 {
				t.Errorf("members lost: %v", c.Members())
			}
		})
	}
}

func TestReadNetworkErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code pqerrors.Code
	}{
		{"UnknownKey", "name = \"x\"\ncolour = \"red\"", pqerrors.ErrCodeInvalidFormat},
		{"Malformed", "[[entity]\nid = 1", pqerrors.ErrCodeInvalidFormat},
		{"BadType", "[[entity]]\nid = \"A\"\ntype = \"Enzyme\"", pqerrors.ErrCodeInvalidInput},
		{"DuplicateEntity", "[[entity]]\nid = \"A\"\n[[entity]]\nid = \"A\"", pqerrors.ErrCodeInvalidInput},
		{"UnknownTarget", "[[entity]]\nid = \"A\"\n[[interaction]]\nsource = \"A\"\ntarget = \"B\"", pqerrors.ErrCodeInvalidInput},
		{"MemberOfProtein", "[[entity]]\nid = \"A\"\ntype = \"Protein\"\nmembers = [\"B\"]\n[[entity]]\nid = \"B\"", pqerrors.ErrCodeInvalidInput},
		{"PipeInID", "[[entity]]\nid = \"A|B\"", pqerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pqio.ReadNetwork(strings.NewReader(tt.src), pqio.FormatTOML)
			if !pqerrors.Is(err, tt.code) {
				t.Errorf("ReadNetwork error = %v, want code %s", err, tt.code)
			}
		})
	}

	_, err := pqio.ReadNetwork(strings.NewReader(`{"entities": [{"id": "A"}], "interactions": [{"source": "A", "target": "Z"}]}`), pqio.FormatJSON)
	if !errors.Is(err, network.ErrUnknownEntity) {
		t.Errorf("json error = %v, want ErrUnknownEntity in chain", err)
	}
}

func TestSIF(t *testing.T) {
	src := `# toy network
A	activation	B C
D
B inhibition A
`
	n, err := pqio.ReadSIF(strings.NewReader(src), "toy")
	if err != nil {
		t.Fatalf("ReadSIF: %v", err)
	}
	if n.Name != "toy" || n.Len() != 4 {
		t.Fatalf("got %q with %d entities", n.Name, n.Len())
	}
	ins := n.Interactions()
	if len(ins) != 3 {
		t.Fatalf("interactions = %v", ins)
	}
	if !ins[2].Inhibitory || ins[0].Inhibitory {
		t.Errorf("polarity not derived from type: %v", ins)
	}

	var buf bytes.Buffer
	if err := pqio.WriteSIF(n, &buf); err != nil {
		t.Fatal(err)
	}
	want := "A\tactivation\tB\nA\tactivation\tC\nB\tinhibition\tA\nD\n"
	if buf.String() != want {
		t.Errorf("WriteSIF =\n%q\nwant\n%q", buf.String(), want)
	}

	if _, err := pqio.ReadSIF(strings.NewReader("A activation\n"), ""); !pqerrors.Is(err, pqerrors.ErrCodeInvalidFormat) {
		t.Errorf("missing target error = %v", err)
	}
}

func TestImportExportNetwork(t *testing.T) {
	n := readTOML(t, p53TOML)
	dir := t.TempDir()
	for _, name := range []string{"p53.json", "p53.toml", "p53.sif"} {
		path := filepath.Join(dir, name)
		if err := pqio.ExportNetwork(n, path); err != nil {
			t.Fatalf("ExportNetwork(%s): %v", name, err)
		}
		got, err := pqio.ImportNetwork(path)
		if err != nil {
			t.Fatalf("ImportNetwork(%s): %v", name, err)
		}
		if got.Len() != n.Len() || len(got.Interactions()) != 3 {
			t.Errorf("%s: %d entities, %d interactions", name, got.Len(), len(got.Interactions()))
		}
		if got.Name != "p53" {
			t.Errorf("%s: name = %q", name, got.Name)
		}
	}
	if err := pqio.ExportNetwork(n, filepath.Join(dir, "p53.xml")); !pqerrors.Is(err, pqerrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension error = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    pqio.Format
		wantErr bool
	}{
		{"json", pqio.FormatJSON, false},
		{"TOML", pqio.FormatTOML, false},
		{"sif", pqio.FormatSIF, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := pqio.ParseFormat(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
