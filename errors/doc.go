/*
Package errors implements custom error interfaces for the rewarder.

The idea is to reuse as many errors from this package as possible and define
custom errors only when absolutely necessary. Errors specific to reward
distribution (codes 100-199) are declared here as well so that clients can
tell them apart by code.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf.

There is also support for stacktraces. Please ensure you create the custom error using
ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation to ensure we attach
a stacktrace. If you wrap multiple times, we only record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context for the error

	%s is just the error message
	%+v is the full stack trace
*/
package errors
