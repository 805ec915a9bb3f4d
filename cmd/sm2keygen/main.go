package main

import (
	"io/ioutil"

	log "github.com/sirupsen/logrus"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

func main() {
	dirKeys := "sm2keys"

	// Load the config, generate and save keys
	filePath := "cmd/sm2keygen/institutions.yaml"
	institutions, err := loadConfig(filePath)
	if err != nil {
		log.Fatalln(err)
	}

	if err = generateKeys(dirKeys, institutions); err != nil {
		log.Fatalln(err)
	}
}

func loadConfig(filePath string) ([]string, error) {
	fileBytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config file")
	}

	institutions := []string{}
	if err = yaml.Unmarshal(fileBytes, &institutions); err != nil {
		return nil, errors.Wrap(err, "cannot load config file")
	}

	return institutions, nil
}
