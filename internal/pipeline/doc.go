// Package pipeline implements the markdown stages of notebook conversion.
//
// The stages run on the exported text of one notebook, in this order:
//   - Export: notebook cells to linear markdown (MarkdownExporter)
//   - Fence fix: retag %%js cells rendered under a python fence
//   - Audit: check that fenced blocks and code cells line up (goldmark)
//   - Injection: code-runner captures and includes, lesson submit button
//
// Cell-level work (classification, challenge markers, cleaning) lives in
// internal/notebook; diagram rendering lives in internal/mermaid.
package pipeline
