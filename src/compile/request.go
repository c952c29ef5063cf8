package compile

import "strings"

// KindCompile is the only request kind the service understands.
const KindCompile = "compile"

// Request is the body POSTed to the compile service.
type Request struct {
	Kind  string            `json:"request"`
	Args  []string          `json:"args"`
	Files map[string]string `json:"files"`
}

// Input is an input pane as seen by the request builder.
type Input struct {
	Title string
	Text  string
}

// BuildRequest turns the argument line and the input panes into a compile
// request. Arguments are split on runs of whitespace. Duplicate titles are
// not expected; if they occur the later pane wins.
func BuildRequest(argLine string, inputs []Input) Request {
	args := strings.Fields(argLine)
	if args == nil {
		args = []string{}
	}
	files := make(map[string]string, len(inputs))
	for _, in := range inputs {
		files[in.Title] = in.Text
	}
	return Request{Kind: KindCompile, Args: args, Files: files}
}
