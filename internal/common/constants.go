package common

import "time"

var UNIX_TS_EPOCH = time.Time{}.Unix()

var ASCII_ART = `
		  [91m ██████╗  ██████╗ [0m
		  [91m██╔════╝ ██╔═══██╗[0m
		  [91m██║  ███╗██║   ██║[0m
		  [91m██║   ██║██║   ██║[0m
		  [91m╚██████╔╝╚██████╔╝[0m
		  [91m ╚═════╝  ╚═════╝ [0m

	   [92m██████╗ ███████╗██████╗ ██╗███████╗[0m
	   [92m██╔══██╗██╔════╝██╔══██╗██║██╔════╝[0m
	   [92m██████╔╝█████╗  ██║  ██║██║███████╗[0m
	   [92m██╔══██╗██╔══╝  ██║  ██║██║╚════██║[0m
	   [92m██║  ██║███████╗██████╔╝██║███████║[0m
	   [92m╚═╝  ╚═╝╚══════╝╚═════╝ ╚═╝╚══════╝[0m

   [94m███████╗███████╗██████╗ ██╗   ██╗███████╗██████╗ [0m
   [94m██╔════╝██╔════╝██╔══██╗██║   ██║██╔════╝██╔══██╗[0m
   [94m███████╗█████╗  ██████╔╝██║   ██║█████╗  ██████╔╝[0m
   [94m╚════██║██╔══╝  ██╔══██╗╚██╗ ██╔╝██╔══╝  ██╔══██╗[0m
   [94m███████║███████╗██║  ██║ ╚████╔╝ ███████╗██║  ██║[0m
   [94m╚══════╝╚══════╝╚═╝  ╚═╝  ╚═══╝  ╚══════╝╚═╝  ╚═╝[0m
   [93m         [93m >>> kvredis Server <<<      [0m
`
