/*
Package whitelist maintains the set of tokens that can be used to fund
reward distributions. The set is changed by the configuration owner only.
*/
package whitelist
