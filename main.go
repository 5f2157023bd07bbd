package main

import "github.com/killallgit/paperreel-api/cmd"

// @title           PaperReel API
// @version         1.0.0
// @description     Authoring and playback API that maps paper blocks to presentation video clips
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/paperreel-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
