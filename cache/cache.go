package cache

import (
	"encoding/gob"
	"os"

	"github.com/mitchellh/go-homedir"
)

var cache string

func Init() error {
	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	cache = home + "/.crazycontrol-cache"
	err = os.MkdirAll(cache, 0777)
	if err != nil {
		return err
	}
	return nil
}

// InitAt points the cache at an explicit directory instead of the
// homedir default.
func InitAt(dir string) error {
	cache = dir
	return os.MkdirAll(cache, 0777)
}

func LoadGains(profile string, e interface{}) error {
	file, err := os.Open(cache + "/" + profile + ".gains")
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	err = decoder.Decode(e)
	if err != nil {
		return err
	}
	return nil
}

func SaveGains(profile string, e interface{}) error {
	file, err := os.OpenFile(cache+"/"+profile+".gains", os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	err = encoder.Encode(e)
	if err != nil {
		return err
	}
	return nil
}
