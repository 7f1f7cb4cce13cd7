package main

func (cli *commandLine) migrate(args []string) error {
	return cli.runMigration(args[0], args[1:]...)
}
