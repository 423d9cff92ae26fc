/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration entity stored under the "_c:"
prefix followed by the extension name. Configurations are loaded from the
genesis file (see InitConfig) and can be updated later by their owner with a
message handled by UpdateConfigurationHandler.
*/
package gconf
