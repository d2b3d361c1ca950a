/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/killallgit/fortune-api/cmd"

// @title           Fortune API
// @version         1.0.0
// @description     Serves fortunes from a pluggable store
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/fortune-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
