package bagtensor_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/bagtensor"
	"github.com/hupe1980/bagtensor/blobstore"
	"github.com/hupe1980/bagtensor/reviews"
)

func Example() {
	records := []reviews.Record{
		{User: "u1", Item: "i1", Text: "Great sound, great bass"},
		{User: "u1", Item: "i2", Text: "sound is fine"},
		{User: "u2", Item: "i1", Text: "bass is weak"},
	}

	p, err := bagtensor.New(
		bagtensor.WithShards(2),
		bagtensor.WithThreshold(1),
		bagtensor.WithTestCount(0),
		bagtensor.WithSeed(42),
	)
	if err != nil {
		log.Fatal(err)
	}

	store := blobstore.NewMemoryStore()
	res, err := p.Run(context.Background(), records, store)
	if err != nil {
		log.Fatal(err)
	}

	names, _ := store.List(context.Background(), "_")
	fmt.Println(res.Users, res.Items, res.Words)
	fmt.Println(names)
	// Output:
	// 2 2 3
	// [_prod_train0 _prod_train1 _test _user_train0 _user_train1 _word_train0 _word_train1]
}
