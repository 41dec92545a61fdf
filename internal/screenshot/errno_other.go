//go:build !unix

package screenshot

func errnoCode(error) string { return "" }
