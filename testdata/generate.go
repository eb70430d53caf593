package main

import (
	"log"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Machine is one row of the inventory fixture.
type Machine struct {
	NetBios  *string   `parquet:"netbios,optional"`
	Dns      string    `parquet:"dns"`
	Cores    int32     `parquet:"cores"`
	Active   bool      `parquet:"active"`
	LastSeen time.Time `parquet:"last_seen,timestamp(millisecond)"`
	Load     float64   `parquet:"load"`
}

func name(s string) *string { return &s }

func main() {
	seen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	machines := []Machine{
		{NetBios: name("WEB01  "), Dns: "web01.corp.example", Cores: 4, Active: true, LastSeen: seen, Load: 0.5},
		{NetBios: nil, Dns: "app02.corp.example", Cores: 8, Active: true, LastSeen: seen.Add(time.Hour), Load: 1.25},
		{NetBios: name(""), Dns: "db07.corp.example", Cores: 16, Active: false, LastSeen: seen.Add(-24 * time.Hour), Load: 0},
		{NetBios: name("#NULL#"), Dns: "", Cores: 2, Active: false, LastSeen: seen.Add(-48 * time.Hour), Load: 3.75},
		{NetBios: name("cache9"), Dns: "cache9.corp.example", Cores: 32, Active: true, LastSeen: seen.Add(2 * time.Hour), Load: 0.1},
	}

	file, err := os.Create("machines.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Machine](file, parquet.Compression(&parquet.Zstd))
	if _, err := writer.Write(machines); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated machines.parquet with %d machines", len(machines))
}
