package presentation

import (
	"errors"

	"github.com/mrlokans/bookie/internal/dataerror"
)

// ErrorMessage turns a repository error into text suitable for the user.
func ErrorMessage(err error) string {
	var remote *dataerror.Remote
	if errors.As(err, &remote) {
		switch remote.Kind {
		case dataerror.RemoteRequestTimeout:
			return "The request timed out."
		case dataerror.RemoteTooManyRequests:
			return "Your quota seems to be exceeded."
		case dataerror.RemoteNoInternet:
			return "Couldn't reach server, please check your internet connection."
		case dataerror.RemoteServer:
			return "Something went wrong on the server side."
		case dataerror.RemoteSerialization:
			return "Couldn't parse data."
		}
		return "Oops, something went wrong."
	}

	var local *dataerror.Local
	if errors.As(err, &local) {
		if local.Kind == dataerror.LocalDiskFull {
			return "It looks like your storage is full."
		}
		return "Oops, something went wrong."
	}

	return "Oops, something went wrong."
}

func errorMessagePtr(err error) *string {
	msg := ErrorMessage(err)
	return &msg
}
