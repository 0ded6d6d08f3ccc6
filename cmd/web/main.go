package main

import "freework_backend/internal/app"

func main() {
	app.Run()
}
