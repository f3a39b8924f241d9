package main

import (
	"fmt"
	"os"

	"github.com/hwessel/fat12"
	"github.com/spf13/afero"
)

// main is just an example to play with a FAT12 image: it lists the root
// directory and dumps the first file it finds.
func main() {
	argsWithoutProg := os.Args[1:]
	if len(argsWithoutProg) <= 0 {
		fmt.Println("Please provide an image filename.")
		os.Exit(1)
	}

	img, err := fat12.Open(argsWithoutProg[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("Opened volume '%v' (OEM '%v', serial %08X)\n\n", img.Label(), img.OEMName(), img.Serial())

	fsys := fat12.NewFs(img)

	var first string
	afero.Walk(fsys, "", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fmt.Println(err)
			return err
		}
		fmt.Println(path, info.IsDir(), info.Size(), info.ModTime())
		if first == "" && !info.IsDir() {
			first = path
		}
		return nil
	})

	if first == "" {
		fmt.Println("\nThe root directory is empty.")
		return
	}

	file, err := fsys.Open(first)
	if err != nil {
		fmt.Println("could not open the root file", err)
		os.Exit(1)
	}

	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		fmt.Println("could not stat the file", err)
		os.Exit(1)
	}

	buffer := make([]byte, stat.Size())
	n, err := file.Read(buffer)
	if err != nil {
		fmt.Println("could not read the file", err)
		os.Exit(1)
	}

	fmt.Printf("\n\nContent of %s (%d of %d bytes):\n\n%s\n", stat.Name(), n, stat.Size(), buffer)
}
