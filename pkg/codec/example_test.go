package codec_test

import (
	"fmt"

	"github.com/matzehuels/seqdia/pkg/codec"
)

func ExampleDecode() {
	token := codec.Encode("Alice -> Bob: hello")

	text, err := codec.Decode("#" + token)
	if err != nil {
		panic(err)
	}
	fmt.Println(text)
	// Output:
	// Alice -> Bob: hello
}
