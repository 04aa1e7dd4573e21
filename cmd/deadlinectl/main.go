package main

import "deadline_notification_bot/cmd/deadlinectl/cmd"

func main() {
	cmd.Execute()
}
