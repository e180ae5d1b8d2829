// Package gmdoc extracts documentation from GameMaker projects.
//
// A project is described by a manifest (the *.project.gmx file) that lists
// script files, possibly grouped into named folders, and a rich-text help
// file. [Extractor.Extract] mirrors the manifest's script listing into a
// [Project]: a tree of folders and documented methods, a flat list of the
// methods meant for publication, and the plain text of the help file.
// Rendering the project is left to the caller; [Encode] writes it as JSON or
// YAML and [Schema] describes that encoding.
//
// # Documentation Comments
//
// Each script is documented by the comment block at the top of its file (see
// [comment.Extract]). The first non-empty line of the block is the method's
// syntax signature. Every following line is one of:
//
//	@flags private nosidebar=0   flag assignments, see [docflag]
//	@param name description      a parameter, in declaration order
//	@return description          the return value
//	anything else                description text
//
// Tokens are found anywhere in a line. A line is classified by the first
// token present in the order @flags, @param, @return; the others are ignored
// for that line.
//
// For example:
//
//	/// scr_move(dx, dy)
//	// Moves the calling instance.
//	// @param dx horizontal distance
//	// @param dy vertical distance
//	// @return true if the move succeeded
//	// @flags nosidebar
//
// # Private Scripts
//
// Scripts whose file name starts with "_" are never read. Scripts flagged
// "@flags private" are parsed and kept in the tree, but are left out of
// [Project.Methods].
//
// # Errors
//
// The package defines sentinel errors for use with [errors.Is]:
//
//   - [ErrMissingManifestSection]: the manifest has no scripts or help
//     section (fatal).
//   - [ErrReadInput]: a file could not be read. Fatal for the manifest and
//     the help file, a warning for a single script.
//   - [ErrMalformedParamLine]: a "@param" line lacks a name or a
//     description (warning).
//   - [ErrInvalidScriptName]: a script element has no usable file name
//     (warning).
//   - [ErrInvalidOption]: a configuration value is invalid.
//   - [ErrWriteOutput]: the project could not be encoded or written.
//   - [ErrWarnings]: returned by callers that treat warnings as fatal.
//
// A built-in flag set to a value that is not a boolean, such as
// "@flags private=yes", reads as false and is reported with
// [docflag.ErrInvalidValue]. Scripts that reference an unknown flag
// ([docflag.ErrUnknownFlag]) are skipped. Every warning is logged and recorded in [Project.Warnings]; the
// rest of the project is still extracted.
//
// # Concurrency
//
// Script files are read concurrently, bounded by [WithJobs]. Parsing and tree
// construction run sequentially in manifest order, so [Project.Methods]
// lists methods in depth-first document order.
package gmdoc
