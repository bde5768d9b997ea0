package main

import "testing"

func TestSplitCatalogArgsPullsRecognizedOptions(t *testing.T) {
	catalog, rest := splitCatalogArgs([]string{
		"--timeLimit", "30",
		"--verbose",
		"--worker2.searchType=LNS",
		"solve",
		"--jobs", "5",
	})

	wantCatalog := []string{"--timeLimit", "30", "--worker2.searchType=LNS"}
	if len(catalog) != len(wantCatalog) {
		t.Fatalf("got catalog args %v, want %v", catalog, wantCatalog)
	}
	for i := range wantCatalog {
		if catalog[i] != wantCatalog[i] {
			t.Fatalf("got catalog args %v, want %v", catalog, wantCatalog)
		}
	}

	wantRest := []string{"--verbose", "solve", "--jobs", "5"}
	if len(rest) != len(wantRest) {
		t.Fatalf("got rest %v, want %v", rest, wantRest)
	}
	for i := range wantRest {
		if rest[i] != wantRest[i] {
			t.Fatalf("got rest %v, want %v", rest, wantRest)
		}
	}
}

func TestSplitCatalogArgsLeavesHelpAndVersionForCobra(t *testing.T) {
	_, rest := splitCatalogArgs([]string{"--help"})
	if len(rest) != 1 || rest[0] != "--help" {
		t.Fatalf("got rest %v, want [--help]", rest)
	}

	_, rest = splitCatalogArgs([]string{"--optalcpVersion"})
	if len(rest) != 1 || rest[0] != "--optalcpVersion" {
		t.Fatalf("got rest %v, want [--optalcpVersion]", rest)
	}
}

func TestSplitCatalogArgsUnrecognizedLongFlagPassesThrough(t *testing.T) {
	_, rest := splitCatalogArgs([]string{"--workspace", "/tmp/demo"})
	want := []string{"--workspace", "/tmp/demo"}
	if len(rest) != len(want) {
		t.Fatalf("got rest %v, want %v", rest, want)
	}
	for i := range want {
		if rest[i] != want[i] {
			t.Fatalf("got rest %v, want %v", rest, want)
		}
	}
}
