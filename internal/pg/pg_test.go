package pg

import "testing"

func TestIdent(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"users", `"users"`},
		{"weird name", `"weird name"`},
		{`inj"ect`, `"inj""ect"`},
	}
	for _, c := range cases {
		if got := Ident(c.in); got != c.want {
			t.Fatalf("Ident(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestFQN(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"users", `"users"`},
		{"public.users", `"public"."users"`},
		{`a.b"c`, `"a"."b""c"`},
	}
	for _, c := range cases {
		if got := FQN(c.in); got != c.want {
			t.Fatalf("FQN(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"anon", `'anon'`},
		{"o'clock", `'o''clock'`},
		{"", `''`},
	}
	for _, c := range cases {
		if got := Literal(c.in); got != c.want {
			t.Fatalf("Literal(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestIdents(t *testing.T) {
	t.Parallel()

	got := Idents([]string{"a", "b"})
	if len(got) != 2 || got[0] != `"a"` || got[1] != `"b"` {
		t.Fatalf("Idents = %v", got)
	}
}
