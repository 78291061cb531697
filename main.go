package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/haulware/routeopt/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
