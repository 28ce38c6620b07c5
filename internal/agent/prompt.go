package agent

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

// buildSystemPrompt assembles the system message for one turn. Tool names are
// listed so the model knows what it can reach for; schemas travel separately
// in the request's tool definitions.
func buildSystemPrompt(toolNames []string) string {
	wd, _ := os.Getwd()

	var b strings.Builder
	b.WriteString("You are Copper Otter, a capable assistant with access to tools for working with files, ")
	b.WriteString("directories, git repositories, structured data, text, archives, the web, and the local system.\n\n")
	b.WriteString("Guidelines:\n")
	b.WriteString("- Use tools when they help; answer directly when they don't.\n")
	b.WriteString("- Chain multiple tool calls to complete multi-step tasks without asking for permission at each step.\n")
	b.WriteString("- Tool results starting with \"Error:\" describe a failure; adjust your approach or report the problem.\n")
	b.WriteString("- Be concise. Summarise tool output instead of repeating it verbatim.\n\n")
	fmt.Fprintf(&b, "Environment: %s/%s, working directory %s, current time %s.\n",
		runtime.GOOS, runtime.GOARCH, wd, time.Now().Format(time.RFC1123))
	if len(toolNames) > 0 {
		fmt.Fprintf(&b, "Available tools: %s.", strings.Join(toolNames, ", "))
	}
	return b.String()
}
