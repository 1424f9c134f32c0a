package romaji

import (
	"strings"
	"testing"
)

func TestLookupKatakanaFoldsToHiragana(t *testing.T) {
	tests := []struct {
		kana string
		want string
	}{
		{"ア", "a"},
		{"キャ", "kya"},
		{"ヴ", "vu"},
		{"ｶ", "ka"},
		{"ン", "n"},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.kana)
		if !ok {
			t.Fatalf("Lookup(%q) missing", tt.kana)
		}
		if got[0] != tt.want {
			t.Errorf("Lookup(%q)[0] = %q, want %q", tt.kana, got[0], tt.want)
		}
	}
}

func TestLookupMissingKey(t *testing.T) {
	for _, key := range []string{"漢", "A", "1", "", "あい"} {
		if _, ok := Lookup(key); ok {
			t.Fatalf("expected no entry for %q", key)
		}
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	got, _ := Lookup("か")
	got[0] = "zz"
	again, _ := Lookup("か")
	if again[0] != "ka" {
		t.Fatalf("table was mutated through Lookup: %v", again)
	}
}

func TestRoles(t *testing.T) {
	if RoleOf("っ") != RoleGeminate || RoleOf("ッ") != RoleGeminate {
		t.Fatalf("expected geminate role for small tsu")
	}
	if RoleOf("ん") != RoleNasal || RoleOf("ン") != RoleNasal {
		t.Fatalf("expected nasal role for n")
	}
	if RoleOf("か") != RolePlain || RoleOf("x") != RolePlain {
		t.Fatalf("expected plain role")
	}
}

func TestTableRequiredEntries(t *testing.T) {
	nasal, _ := Lookup("ん")
	if strings.Join(nasal, ",") != "n,nn,xn" {
		t.Fatalf("unexpected nasal spellings: %v", nasal)
	}
	long, _ := Lookup("ー")
	if len(long) != 1 || long[0] != "-" {
		t.Fatalf("unexpected long vowel spellings: %v", long)
	}
	for _, key := range []string{"あ", "い", "う", "え", "お", "が", "ぱ", "しゃ", "ふぁ", "っ"} {
		if _, ok := Lookup(key); !ok {
			t.Fatalf("missing entry for %q", key)
		}
	}
}

// Only the nasal may list a spelling that is a strict prefix of another;
// anywhere else the shorter spelling could never complete.
func TestTableHasNoShadowedSpellings(t *testing.T) {
	for key, list := range spellings {
		if roles[key] == RoleNasal {
			continue
		}
		for i, a := range list {
			if a == "" {
				t.Fatalf("%q has an empty spelling", key)
			}
			for j, b := range list {
				if i != j && strings.HasPrefix(b, a) {
					t.Errorf("%q: %q shadows %q", key, a, b)
				}
			}
		}
	}
}

func TestRequiresDoubleNasal(t *testing.T) {
	tests := []struct {
		next []string
		want bool
	}{
		{[]string{"i"}, true},
		{[]string{"ya"}, true},
		{[]string{"na"}, true},
		{[]string{"ka", "ca"}, false},
		{[]string{"."}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := RequiresDoubleNasal(tt.next); got != tt.want {
			t.Errorf("RequiresDoubleNasal(%v) = %v, want %v", tt.next, got, tt.want)
		}
	}
}
