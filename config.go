package main

import (
	"fmt"
	"os"
)

type Config struct {
	DataRoot   string
	ListenAddr string
	LogMode    string
}

func LoadConfig() *Config {
	root := os.Getenv("DATA_ROOT")
	if root == "" {
		root = "./data"
	}
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8089"
	}
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "dev"
	}
	return &Config{
		DataRoot:   root,
		ListenAddr: addr,
		LogMode:    mode,
	}
}

func (c *Config) Print() {
	fmt.Println("Data root:", c.DataRoot)
	fmt.Println("Listen addr:", c.ListenAddr)
}
