package main

import (
	"rxplain/config"
	"rxplain/routes"
	"rxplain/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	r := routes.SetupRouter()
	r.Run(":8080")
}
