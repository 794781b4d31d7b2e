//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// skipDirs are not walked when counting lines.
var skipDirs = map[string]bool{
	".git":      true,
	"_examples": true,
	"magefiles": true,
	"vendor":    true,
	binaryDir:   true,
}

// Stats prints production and test Go line counts per package directory.
func Stats() error {
	prod := map[string]int{}
	test := map[string]int{}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		n := bytes.Count(data, []byte("\n"))
		if strings.HasSuffix(path, "_test.go") {
			test[filepath.Dir(path)] += n
		} else {
			prod[filepath.Dir(path)] += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(prod))
	for dir := range prod {
		dirs = append(dirs, dir)
	}
	for dir := range test {
		if _, ok := prod[dir]; !ok {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)

	var totalProd, totalTest int
	fmt.Printf("%-24s %8s %8s\n", "package", "prod", "test")
	for _, dir := range dirs {
		fmt.Printf("%-24s %8d %8d\n", dir, prod[dir], test[dir])
		totalProd += prod[dir]
		totalTest += test[dir]
	}
	fmt.Printf("%-24s %8d %8d\n", "total", totalProd, totalTest)
	return nil
}
