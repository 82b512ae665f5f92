// Command forumctl is the operator tool of the forum server.
package main

import "github.com/gazebo-web/forum-server/cmd/forumctl/commands"

func main() {
	commands.Execute()
}
