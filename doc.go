/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

/*
Dredd is a source-to-source mutation engine for C and C++.
It rewrites every translation unit listed in a compilation database so that
its mutations (statement removal, unary and binary operator replacement,
expression replacement) can be switched on at runtime, and writes a JSON
file describing the mutations it introduced.

Usage

To mutate every translation unit listed in ./compile_commands.json:

	$ dredd mutate

Another compilation database and another mutation-info file (default
mutation-info.json) can be named explicitly:

	$ dredd mutate --compile-commands build/compile_commands.json --mutation-info-file info.json

Files whose path matches a regular expression can be left out:

	$ dredd mutate --exclude-files "third_party/"

The C/C++ parser is an external collaborator. The dredd binary built from
cmd/dredd links none, so there dredd mutate exits with an error; a build
that links one passes it to cmd.ExecuteWithFrontend.

Configuration

Dredd uses Viper (https://github.com/spf13/viper) for the configuration.

In particular, the options can be passed in the following ways

 - specific command flags
 - environment variables
 - configuration file

in which each item takes precedence over the following in the list.
The environment variables must be set with the following syntax:

  DREDD_<COMMAND NAME>_<FLAG NAME>

in which every dash in the option name  must be replaced with an underscore.

Example:

  $ DREDD_MUTATE_NO_MUTATION_OPTS=true dredd mutate


The configuration must be named
 .dredd.yaml
and must be in the following format:

 mutate:
   no-mutation-opts: false
   workers: 4

and can be placed in one of the following folder (in order)

 - /etc/dredd (not on Windows)
 - $XDG_CONFIG_HOME/dredd/dredd ($HOME/.config/dredd/dredd when unset)
 - $HOME/.dredd
 - the closest ancestor of the current folder holding a compile_commands.json
 - the current folder
*/
package gremlins
