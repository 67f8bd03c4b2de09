package main

import "testing"

func TestParseASDLFindsEveryMarkerCategory(t *testing.T) {
	cats, err := parseASDL("../../grammar/btrc.asdl")
	if err != nil {
		t.Fatalf("parseASDL: %v", err)
	}
	byName := map[string][]string{}
	for _, cat := range cats {
		names := make([]string, len(cat.Constructors))
		for i, c := range cat.Constructors {
			names[i] = c.Name
		}
		byName[cat.Name] = names
	}

	for cat := range markerInterface {
		ctors, ok := byName[cat]
		if !ok {
			t.Errorf("grammar/btrc.asdl has no %q category", cat)
			continue
		}
		if len(ctors) == 0 {
			t.Errorf("category %q parsed with no constructors", cat)
		}
	}

	stmtCtors := byName["stmt"]
	wantSpawn := false
	for _, c := range stmtCtors {
		if c == "Spawn" {
			wantSpawn = true
		}
	}
	if !wantSpawn {
		t.Errorf("stmt category missing Spawn constructor: %v", stmtCtors)
	}
}

func TestSplitConstructorsHandlesBareAndParenAlternatives(t *testing.T) {
	got := splitConstructors(`VarDecl(type declType, identifier name, expr? init)
         | Break
         | Continue`)
	want := []string{"VarDecl", "Break", "Continue"}
	if len(got) != len(want) {
		t.Fatalf("splitConstructors returned %d constructors, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("constructor %d = %q, want %q", i, got[i].Name, w)
		}
	}
}

func TestGenerateProducesOneAssertionPerConstructor(t *testing.T) {
	cats := []category{
		{Name: "stmt", Constructors: []constructor{{Name: "Break"}, {Name: "Continue"}}},
		{Name: "expr", Constructors: []constructor{{Name: "Ident"}}},
		{Name: "type", Constructors: []constructor{{Name: "PrimitiveType"}}},
		{Name: "decl", Constructors: []constructor{{Name: "GlobalDecl"}}},
		{Name: "member", Constructors: []constructor{{Name: "FieldMember"}}},
		{Name: "fstringChunk", Constructors: []constructor{{Name: "TextChunk"}}},
	}
	code, err := generate(cats)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	src := string(code)
	for _, want := range []string{
		"var _ Stmt = (*Break)(nil)",
		"var _ Stmt = (*Continue)(nil)",
		"var _ Expr = (*Ident)(nil)",
		"var _ TypeExpr = (*PrimitiveType)(nil)",
		"var _ Decl = (*GlobalDecl)(nil)",
		"var _ Member = (*FieldMember)(nil)",
		"var _ FStringChunk = (*TextChunk)(nil)",
	} {
		if !contains(src, want) {
			t.Errorf("generated source missing %q\n--- got ---\n%s", want, src)
		}
	}
}

func TestGenerateFailsWhenAMarkerCategoryIsMissing(t *testing.T) {
	cats := []category{
		{Name: "stmt", Constructors: []constructor{{Name: "Break"}}},
	}
	if _, err := generate(cats); err == nil {
		t.Fatal("generate with missing categories should fail, got nil error")
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && indexOf(s, sub) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
