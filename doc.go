// Package bagtensor turns bag-of-words reviews into a sparse user × item × word
// tensor and writes it as range-partitioned binary shards for a distributed
// tensor-factorization job.
//
// # Quick Start
//
//	records, _ := reviews.ReadFile(ctx, "reviews_Books_5.json.gz")
//
//	p, _ := bagtensor.New(
//	    bagtensor.WithShards(4),
//	    bagtensor.WithTestFraction(0.2),
//	    bagtensor.WithSeed(42),
//	)
//	res, _ := p.Run(ctx, records, blobstore.NewLocalStore("./out"))
//	fmt.Println(res.Users, res.Items, res.Words)
//
// # Pipeline
//
// A run tokenizes every review, reduces the token counts to a vocabulary of
// words seen more than Threshold times, encodes each review as a sparse row
// over that vocabulary, and assembles the rows into tensor entries with dense
// user and item indexes.
//
// The entries are split into train and test by review. The split is repaired
// until every user, item, and word of the tensor occurs in train.
//
// The train set is then partitioned three times into k contiguous blocks: by
// user, by item, and by word. User and item blocks hold equal numbers of
// indexes; word blocks hold roughly equal numbers of word occurrences.
//
// # Outputs
//
// Written to the BlobStore passed to Run:
//
//	_user_train0 .. _user_train<k-1>   user-mode shards
//	_prod_train0 .. _prod_train<k-1>   item-mode shards
//	_word_train0 .. _word_train<k-1>   word-mode shards
//	_test                              the whole test set
//	meta.txt                           sizes and vocabulary
//	manifest.json                      shard inventory with CRC32C checksums
//
// See package shard for the binary layout.
//
// # Storage
//
// Any blobstore.BlobStore can receive the output: a local directory, memory,
// Amazon S3 (blobstore/s3) or MinIO (blobstore/minio).
//
// # Errors
//
// Malformed input surfaces as *ErrInputFormat, inconsistent shard arrays as
// *ErrDimensionMismatch. An empty vocabulary is not an error; it is reported
// in Result.Warnings as ErrEmptyVocabulary.
package bagtensor
