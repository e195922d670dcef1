package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

const APIKeyBytesLen = 32

func main() {
	b := make([]byte, APIKeyBytesLen)

	_, err := rand.Read(b)
	if err != nil {
		fmt.Printf("error while generating api key: %v", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}
