package bitstring_test

import (
	"fmt"

	"github.com/astei/bitstring/bitstring"
)

func Example() {
	bs1 := bitstring.MustParse(8, "10101010")
	bs2 := bitstring.MustParse(8, "11001100")

	and, _ := bs1.And(bs2)
	left, _ := bs1.ShiftLeft(2)

	fmt.Println(and)
	fmt.Println(bs1.Not())
	fmt.Println(left)
	fmt.Println(bs1.Range(1, 5), bs1.Population())
	// Output:
	// 10001000
	// 01010101
	// 10101000
	// [0 1 0 1] 4
}
