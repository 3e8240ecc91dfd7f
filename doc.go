// Package nb2md converts notebook documents (.ipynb) into templated markdown
// pages for a static site.
//
// # Quick Start
//
//	conv := nb2md.NewConverter()
//	res, err := conv.ConvertFile(ctx, "_notebooks/csa/frq3.ipynb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Destination) // _posts/csa/frq3_IPYNB_2_.md
//
// # Conversion Pipeline
//
// Each notebook goes through these stages, in order:
//
//  1. Front matter is parsed from the first cell, which is then dropped
//  2. Code cells are classified (python, javascript, java); cells with a
//     CODE_RUNNER comment get runner metadata and lose their outputs
//  3. ~~~mermaid cells are rendered to cached PNG files with mmdc
//  4. The notebook is exported to markdown
//  5. Python fences holding %%js cells are retagged as javascript
//  6. Runner cells' fenced blocks are wrapped in capture blocks followed by a
//     code-runner include; a lesson submit button is appended when the front
//     matter sets challenge_submit
//  7. The front matter is written back on top of the page
//
// Runner metadata is matched to fenced blocks by position: the Nth fenced
// block of the exported markdown belongs to the Nth code cell. An audit
// counts fenced blocks with goldmark and logs a warning when the two differ.
//
// # Errors
//
// Malformed front matter returns ErrFrontMatterParse. Export failures
// return ErrExport. Diagram rendering failures are not errors: the diagram
// stays as text and a warning is logged. ConvertFile removes the
// destination file whenever it returns an error.
package nb2md
