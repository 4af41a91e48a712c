package main

import "github.com/AfrozSheikh/krushivarsa/internal/app/bootstrap"

func main() {
	bootstrap.Main()
}
