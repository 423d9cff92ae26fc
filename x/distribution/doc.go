/*
Package distribution records reward distributions funded by incentive
providers.

A distribution streams a fixed total amount of a single token over a range
of whole epochs. The amount released per epoch is the total divided by the
number of epochs, rounded down. Distributions are immutable once created
and are never removed.
*/
package distribution
