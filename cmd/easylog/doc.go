// Command easylog renders JSON-lines log files as EasyLog text.
//
// Usage:
//
//	easylog render [files...]     render records (stdin when no file is given)
//	easylog config show           print the effective configuration
//	easylog config init           write a sample configuration file
//
// Input lines use the shape of monolog's JsonFormatter. A blank line ends a
// batch; --group-by extra.uid (or any dotted context/extra path) ends one
// whenever the value changes. Output goes to log_path from the
// configuration, or to stdout with --output -.
package main
