// Command tusk is the tuskORM front-end: it configures the database
// connection, checks connectivity, and generates model shapes from an
// existing schema.
//
// Usage:
//
//	tusk configure
//	tusk test [-config .DBConfig]
//	tusk generate [-config .DBConfig] [-dir models] [table ...]
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ihavemadefire/tuskORM/internal/config"
	"github.com/ihavemadefire/tuskORM/internal/db"
	"github.com/ihavemadefire/tuskORM/internal/generate"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "configure":
		runConfigure()
	case "test":
		runTest(os.Args[2:])
	case "generate":
		runGenerate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tusk <configure|test|generate> [flags]")
}

// runConfigure prompts for connection details and writes .DBConfig.
func runConfigure() {
	in := bufio.NewScanner(os.Stdin)
	prompt := func(label, fallback string) string {
		fmt.Printf("%s [%s]: ", label, fallback)
		if !in.Scan() || strings.TrimSpace(in.Text()) == "" {
			return fallback
		}
		return strings.TrimSpace(in.Text())
	}

	def := config.Default()
	c := config.Config{
		Host:     prompt("Database host", def.Host),
		User:     prompt("Username", def.User),
		Password: prompt("Password", def.Password),
		Database: prompt("Database name", def.Database),
	}
	port, err := strconv.Atoi(prompt("Database port", strconv.Itoa(def.Port)))
	if err != nil {
		log.Fatalf("invalid port: %v", err)
	}
	c.Port = port

	for _, iss := range config.Validate(c) {
		fmt.Fprintln(os.Stderr, iss.Error())
	}
	if strings.ToLower(prompt("Save this configuration? (y/n)", "y")) != "y" {
		fmt.Println("Configuration not saved.")
		return
	}
	if err := c.Save(config.DefaultPath); err != nil {
		log.Fatalf("save config: %v", err)
	}
	fmt.Printf("Configuration saved to %s\n", config.DefaultPath)
}

// runTest connects with the stored configuration and reports the outcome.
func runTest(args []string) {
	flags := flag.NewFlagSet("test", flag.ExitOnError)
	cfgPath := flags.String("config", config.DefaultPath, "connection config path")
	_ = flags.Parse(args)

	c := loadConfig(*cfgPath)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, c.DSN(), db.Options{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	pool.Close()
	fmt.Println("Database connection successful.")
}

// runGenerate writes model files for the named tables, or all user tables.
func runGenerate(args []string) {
	flags := flag.NewFlagSet("generate", flag.ExitOnError)
	cfgPath := flags.String("config", config.DefaultPath, "connection config path")
	dir := flags.String("dir", "models", "output directory for generated models")
	_ = flags.Parse(args)

	c := loadConfig(*cfgPath)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, c.DSN(), db.Options{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer pool.Close()

	g := &generate.Generator{Dir: *dir}
	if err := g.Run(ctx, pool, flags.Args()); err != nil {
		log.Fatalf("generate: %v", err)
	}
}

// loadConfig reads the config file, falling back to defaults plus environment
// overrides when the file does not exist. Validation errors are fatal.
func loadConfig(path string) config.Config {
	c, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("load config: %v", err)
		}
		c = config.Default().FromEnv()
	}
	issues := config.Validate(c)
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss.Error())
	}
	if config.HasError(issues) {
		os.Exit(1)
	}
	return c
}
