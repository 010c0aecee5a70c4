package workspace

import "fmt"

// AgentReply is the canned acknowledgement posted after a user message.
func AgentReply(prompt string) string {
	return fmt.Sprintf(`Got it. I'll structure your project around this:

"%s"

Next steps:
1) Main screens
2) App flow
3) Database
4) Google sign-in
5) Deploy

Tell me: do you want a "Site" or a "SaaS"?`, prompt)
}
