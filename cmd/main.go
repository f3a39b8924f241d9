package main

import (
	"fmt"
	"os"

	"github.com/hwessel/fat12"
)

// main extracts a single file from a FAT12 image and writes its content to
// stdout. Defaults match the classic floppy demo: image "os.img", file
// "TEST.TXT".
func main() {
	image := "os.img"
	name := "TEST.TXT"

	args := os.Args[1:]
	if len(args) > 0 {
		image = args[0]
	}
	if len(args) > 1 {
		name = args[1]
	}

	img, err := fat12.Open(image)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fsys := fat12.NewFs(img)

	file, err := fsys.Open(name)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	buffer := make([]byte, stat.Size())
	if _, err := file.Read(buffer); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	os.Stdout.Write(buffer)
}
