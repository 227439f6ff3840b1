package main

import (
	_ "git.shiro.blog/shiro/shiro/src/admintools"
	_ "git.shiro.blog/shiro/shiro/src/devstorage"
	_ "git.shiro.blog/shiro/shiro/src/migration"
	"git.shiro.blog/shiro/shiro/src/website"
)

func main() {
	website.WebsiteCommand.Execute()
}
