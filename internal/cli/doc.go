// Package cli is the command-line front end of expedientes. With
// positional arguments it runs one command and exits; otherwise it starts
// an interactive prompt.
//
// Commands:
//
//	login                       start a session
//	import <archivo>            import a workbook
//	validate <archivo>          check a workbook without importing
//	preview <archivo> [n]       show the first n candidate rows
//	export <archivo>            dump the store to a workbook
//	template <archivo>          write an empty import workbook
//	stats                       summary per estado and expediente
//	bin                         list the recycle bin
//	delete <id>                 move a registro to the recycle bin
//	restore <id>                bring a registro back
//	purge <id>                  remove a binned registro for good (admin)
//	deliver <id> [fecha]        mark an expediente delivered
//	pending                     list undelivered expedientes
//	help, exit
package cli
