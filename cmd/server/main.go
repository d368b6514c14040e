package main

import (
	"github.com/adib-hasan/gitboard/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
