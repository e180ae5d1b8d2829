// Package docflag defines the named flags a documentation comment can set with
// an "@flags" line.
//
// A [Source] registers every known flag with two defaults: the value a flag
// has when a comment never mentions it, and the value it takes when mentioned
// without an explicit value. Build one Source per run with [NewSource] and
// share it freely; it is never mutated.
//
// Each documented method owns a [Set] created by [Source.NewSet]:
//
//	src, err := docflag.NewSource()
//	set := src.NewSet()
//	err = set.SetToDefault("private") // private = "1"
//	set.Set("nosidebar", "0")
//
// Additional flags can be registered from a YAML file with
// [LoadDefinitions]:
//
//	flags:
//	  - name: deprecated
//	    default: "0"
//	    set: "1"
package docflag
