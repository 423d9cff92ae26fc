/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of Model, with a primary key, and possibly
secondary indexes into other models.

Secondary indexes are maintained on every Put and Delete, so a model can be
looked up by any value an Indexer calculates for it. An index may be declared
unique, in which case a second model with the same index value is rejected.

Sequences generate ordered 8 byte keys. A bucket configured with an ID
sequence assigns the next value to every model stored without a key, which
makes the iteration order of the bucket its insertion order.
*/
package orm
