package pipeline

import "regexp"

// jsUnderPythonFence matches a python fence whose first line is the %%js magic.
// The exporter tags every code cell with the kernel language, so JavaScript
// cells of a Python notebook come out under a python fence.
var jsUnderPythonFence = regexp.MustCompile("(?m)^```python([ \\t]*\\r?\\n[ \\t]*%%js)")

// FixFenceLanguage retags python fences that hold a %%js cell as javascript.
// The %%js line stays in the block. No other fence is touched.
func FixFenceLanguage(markdown string) string {
	return jsUnderPythonFence.ReplaceAllString(markdown, "```javascript$1")
}
