package main

/*
#include <stdlib.h>
*/
import "C"

// This is the main package required for building as c-shared
// It provides the easysock C entry points on top of the Go implementation

func main() {} // Required for c-shared build mode

//export create_socket
func create_socket(network C.int, transport C.char) C.int {
	return C.int(createSocket(int(network), byte(transport)))
}

//export create_local
func create_local(network C.int, transport C.char, address *C.char, port C.int) C.int {
	return C.int(createLocal(int(network), byte(transport), C.GoString(address), int(port)))
}

//export create_remote
func create_remote(network C.int, transport C.char, address *C.char, port C.int) C.int {
	return C.int(createRemote(int(network), byte(transport), C.GoString(address), int(port)))
}

//export check_ip_ver
func check_ip_ver(address *C.char) C.int {
	return C.int(checkIPVer(C.GoString(address)))
}

//export int_to_inet
func int_to_inet(network C.int) C.int {
	return C.int(intToInet(int(network)))
}

//export inet_to_int
func inet_to_int(afType C.int) C.int {
	return C.int(inetToInt(int(afType)))
}

//export char_to_socktype
func char_to_socktype(transport C.char) C.int {
	return C.int(charToSocktype(byte(transport)))
}
