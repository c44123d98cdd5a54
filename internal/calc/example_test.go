package calc_test

import (
	"fmt"

	"erpcalc/internal/calc"
)

func ExampleBOM() {
	res := calc.BOM([]string{"Table,qty:2,Leg:4,Top:1", "Chair,Leg:4,Seat:1"}, "Chair:6")
	for _, row := range res.Rows {
		fmt.Printf("%s: %v\n", row[0], row[1])
	}
	// Output:
	// Leg: 32
	// Top: 2
	// Seat: 6
}

func ExampleForecast() {
	res, err := calc.Forecast([]string{"10,20,30,40,50"}, 3, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Next)
	// Output:
	// [40.00 43.33]
}

func ExampleLookup() {
	c, err := calc.Lookup(calc.NameSAW)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, _ := c.Calculate([]string{"Vendor A,80,70", "Vendor B,60,90"}, calc.Params{Weights: "0.6,0.4"})
	for _, row := range res.Rows {
		fmt.Println(row[0], row[1])
	}
	// Output:
	// Vendor A 0.9111
	// Vendor B 0.8500
}

func ExampleMarkov() {
	res := calc.Markov([]string{"Sunny,Sunny,Rainy", "Sunny"}, calc.MarkovOptions{})
	fmt.Println(res.Headers)
	for _, row := range res.Rows {
		fmt.Println(row...)
	}
	// Output:
	// [State ->Sunny ->Rainy]
	// Sunny 0.500 0.500
	// Rainy 1.000 0.000
}
