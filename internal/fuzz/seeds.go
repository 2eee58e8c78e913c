package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var builtinSeeds = []string{
	"p vc 4 3\n1 2\n2 3\n3 4\n",
	"p wvc 3 2\nv 2 7\n1 2\n2 3\n",
	"p fvs 3 4\n1 2\n2 3\n3 1\n2 2\n",
	"p ocm/1 4 3 k=5 a=2\n1 3\n2 4\n1 4\n",
	"p ds/1 1 0\n",
	"#p 2 4\n((1,2),(3,4));\n((1,3),(2,4));\n",
	"#s note \"x\"\n#p 1 3\n(1,(2,3));\n",
	"c only a comment\n",
	"",
}

// addInstanceSeeds adds builtin seeds and every *.in file below testdata.
func addInstanceSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	walkTestdata(func(path string) {
		if filepath.Ext(path) != ".in" {
			return
		}
		if data, err := os.ReadFile(path); err == nil {
			f.Add(clampSeed(data))
		}
	})
}

// addPairSeeds adds every instance/solution pair below testdata.
func addPairSeeds(f *testing.F) {
	f.Add([]byte(builtinSeeds[0]), []byte("2\n3\n"))
	f.Add([]byte(builtinSeeds[5]), []byte("#s score 3\n(1,2);\n3;\n4;\n"))
	walkTestdata(func(path string) {
		if filepath.Ext(path) != ".out" {
			return
		}
		inst, err := os.ReadFile(path[:len(path)-len(".out")] + ".in")
		if err != nil {
			return
		}
		sol, err := os.ReadFile(path)
		if err != nil {
			return
		}
		f.Add(clampSeed(inst), clampSeed(sol))
	})
}

func walkTestdata(visit func(path string)) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		visit(path)
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(src []byte) []byte {
	if len(src) > maxFuzzInput {
		return append([]byte(nil), src[:maxFuzzInput]...)
	}
	return append([]byte(nil), src...)
}
