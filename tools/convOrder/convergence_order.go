package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/notargets/gocoax/convergence"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study, as written by gocoax convergence")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	studies, err := convergence.ReadCSV(f)
	if err != nil {
		panic(err)
	}
	titles := make([]string, 0, len(studies))
	for title := range studies {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		cs := studies[title]
		order, err := cs.Order()
		if err != nil {
			fmt.Printf("Title = %s, %v\n", cs.Title, err)
			continue
		}
		fmt.Printf("Title = %s, Order = %5.2f\n", cs.Title, order)
		for i := range cs.Refinement {
			fmt.Printf("%d, %d, %v, %v, %v\n",
				cs.Refinement[i], cs.NumNodes[i], cs.H[i], cs.Energy[i], cs.RelError[i])
		}
	}
}
